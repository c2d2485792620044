// Package tracker generates the browser tracking script served at
// /sp.js. The script is best-effort by design: every failure mode is
// swallowed so tracking can never degrade the visitor's experience.
package tracker

import "fmt"

// GenerateScript renders the tracking script pointed at serverURL.
//
// The script keeps a long-lived visitor id in localStorage and a
// per-tab session id in sessionStorage, deduplicates view/engagement/
// conversion events per (kind, path) for the browser session, and skips
// all network calls on local development hosts. Bounce events are never
// deduplicated.
func GenerateScript(serverURL string) string {
	return fmt.Sprintf(`(function(){
  var S='%s';

  // Never pollute production stats from a local dev host.
  var local=['localhost','127.0.0.1','[::1]'].indexOf(location.hostname)>-1;

  function token(){
    if(window.crypto&&crypto.randomUUID)return crypto.randomUUID();
    return Math.random().toString(36).slice(2)+Date.now().toString(36);
  }

  // Long-lived visitor id; per-tab session id.
  var vid,sid;
  try{
    vid=localStorage.getItem('sp_vid');
    if(!vid){vid=token();localStorage.setItem('sp_vid',vid);}
    sid=sessionStorage.getItem('sp_sid');
    if(!sid){sid=token();sessionStorage.setItem('sp_sid',sid);}
  }catch(e){vid=token();sid=token();}

  function seen(kind,path){
    try{
      var key='sp_t_'+kind+'_'+path;
      if(sessionStorage.getItem(key))return true;
      sessionStorage.setItem(key,'1');
    }catch(e){}
    return false;
  }

  function send(kind,path,meta){
    if(local)return;
    var body=JSON.stringify({path:path,kind:kind,session_id:sid,visitor_id:vid,metadata:meta||{}});
    try{
      if(navigator.sendBeacon){
        navigator.sendBeacon(S+'/events',new Blob([body],{type:'application/json'}));
        return;
      }
      fetch(S+'/events',{method:'POST',headers:{'Content-Type':'application/json'},body:body,keepalive:true}).catch(function(){});
    }catch(e){}
  }

  function track(kind,path,meta){
    path=path||location.pathname;
    if(kind!=='bounce'&&seen(kind,path))return;
    send(kind,path,meta);
  }

  var engaged=false;

  window.splitpath={
    trackView:function(p,m){track('view',p,m);},
    trackEngagement:function(p,m){engaged=true;track('engagement',p,m);},
    trackConversion:function(p,m){track('conversion',p,m);},
    trackBounce:function(p,m){track('bounce',p,m);}
  };

  // View once per session on load.
  track('view',location.pathname,{referrer:document.referrer,language:navigator.language});

  // Engagement once per session on scroll past 50%%.
  window.addEventListener('scroll',function(){
    if(engaged)return;
    var h=document.documentElement;
    var depth=(h.scrollTop+window.innerHeight)/h.scrollHeight;
    if(depth>=0.5){
      engaged=true;
      track('engagement',location.pathname,{scroll_depth:Math.round(depth*100)});
    }
  },{passive:true});

  // Conversion on elements marked data-sp-convert.
  document.addEventListener('click',function(ev){
    var el=ev.target&&ev.target.closest&&ev.target.closest('[data-sp-convert]');
    if(el)track('conversion',location.pathname,{source:el.getAttribute('data-sp-convert')||'click'});
  });

  // Bounce on page exit without engagement; intentionally not deduplicated.
  window.addEventListener('pagehide',function(){
    if(!engaged)send('bounce',location.pathname);
  });
})();`, serverURL)
}
